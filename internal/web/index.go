package web

// indexHTML is the single-page order form. It talks to the JSON API on
// the same host, so no build step or static assets are needed.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>APEX Trading Bot</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  h1 { font-size: 1.4rem; }
  form { display: grid; grid-template-columns: 1fr 1fr; gap: .8rem; }
  label { display: flex; flex-direction: column; font-size: .85rem; gap: .25rem; }
  input, select { padding: .45rem; font-size: 1rem; }
  button { grid-column: 1 / -1; padding: .6rem; font-size: 1rem; background: #4caf50; color: #fff; border: 0; cursor: pointer; }
  button:hover { background: #45a049; }
  .box { margin-top: 1rem; padding: .8rem; border-left: 5px solid #ccc; border-radius: .3rem; white-space: pre-wrap; font-family: monospace; font-size: .85rem; }
  .ok { border-color: #4caf50; background: #e8f5e9; }
  .err { border-color: #f44336; background: #ffebee; }
  .warn { border-color: #ff9800; background: #fff3e0; }
</style>
</head>
<body>
<h1>APEX Trading Bot — Futures Testnet</h1>
<form id="order-form">
  <label>Symbol <input name="symbol" value="BTCUSDT" required></label>
  <label>Side
    <select name="side"><option>BUY</option><option>SELL</option></select>
  </label>
  <label>Order Type
    <select name="kind" id="kind">
      <option>MARKET</option><option>LIMIT</option><option>STOP_LIMIT</option>
    </select>
  </label>
  <label>Quantity <input name="quantity" placeholder="0.001" required></label>
  <label>Price (USDT) <input name="price" placeholder="50000"></label>
  <label>Stop Price (USDT) <input name="stop_price" placeholder="49000"></label>
  <button type="submit">Place Order</button>
</form>
<div id="result"></div>
<script>
const form = document.getElementById('order-form');
const result = document.getElementById('result');
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  const data = Object.fromEntries(new FormData(form).entries());
  result.innerHTML = '';
  try {
    const resp = await fetch('/api/v1/orders', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(data),
    });
    const outcome = await resp.json();
    const box = document.createElement('div');
    if (outcome.accepted) {
      box.className = 'box ok';
      box.textContent = 'Order placed. ID ' + outcome.accepted.order_id +
        ', status ' + outcome.accepted.status;
    } else if (outcome.rejected) {
      box.className = 'box err';
      box.textContent = 'Rejected (' + outcome.rejected.stage + '): ' + outcome.rejected.reason;
    } else {
      box.className = 'box err';
      box.textContent = JSON.stringify(outcome);
    }
    result.appendChild(box);
    for (const warning of outcome.warnings || []) {
      const wbox = document.createElement('div');
      wbox.className = 'box warn';
      wbox.textContent = 'Warning: ' + warning;
      result.appendChild(wbox);
    }
  } catch (err) {
    const box = document.createElement('div');
    box.className = 'box err';
    box.textContent = 'Request failed: ' + err;
    result.appendChild(box);
  }
});
</script>
</body>
</html>
`
